// Package profile manages named placement profiles for Placement Core.
//
// A profile binds a human-readable name to a placement specification string
// (see internal/devicespec). Profiles are persisted in SQLite, cached in
// memory by the Registry, and resolved against candidate specs at request
// time: the profile supplies defaults, the candidate overrides.
//
// # Components
//
//   - Profile: the entity (ID, name, slug, canonical spec string)
//   - Repository: persistence interface with a SQLite implementation
//   - Registry: cached, thread-safe management layer with resolution
//
// # Usage
//
//	registry := profile.NewRegistry(repo)
//	if err := registry.RefreshCache(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	p := &profile.Profile{Name: "GPU Workers", Spec: "/job:worker/device:GPU:*"}
//	if err := registry.CreateProfile(ctx, p); err != nil {
//	    return err
//	}
//
//	resolved, err := registry.Resolve(ctx, p.ID, "/task:3")
//	// resolved.String() == "/job:worker/task:3/device:GPU:*"
package profile
