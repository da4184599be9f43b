// Package placement is the library boundary of the voxel allocation engine.
//
// An Engine owns one occupancy grid per space and applies beam placements, connector
// formation and beam removal to it. All writes to one space are serialized in arrival
// order, so the first of two conflicting placements wins and the second is rejected with
// voxelspace.ErrForeign. Every rejected operation leaves the space unchanged.
//
// Key features:
//   - All-or-nothing placement with typed errors (voxelspace.PlacementError, voxelspace.ConnectorError)
//   - Declared two-voxel junctions between collinear beams, formed into connectors later
//   - Deterministic batches: PlaceBeams applies requests for one space in slice order
//   - Optional persistence through a voxelspace.Recorder, with rollback when it fails
//   - Optional logging, metrics and tracing through the voxelspace observability interfaces
//
// Usage examples:
//
//	engine, _ := placement.NewEngine(
//		placement.WithLogger(slog.Default()),
//		placement.WithRecorder(store),
//	)
//
//	_ = engine.CreateSpace(ctx, chair)
//	seat, _ := engine.PlaceBeam(ctx, placement.PlaceRequest{
//		Space:       chair.Name,
//		Origin:      voxelspace.Coordinates{X: 0, Y: 0, Z: 0},
//		Orientation: voxelspace.BottomToTop,
//		Length:      8,
//	})
//
//	snapshot, _ := engine.OccupancySnapshot(ctx, chair.Name)
package placement
