// Package checkpoint persists an in-memory snapshot of a long-running
// batch process to a single file, and restores it on restart.
//
// The store is generic over the caller's snapshot type and never inspects
// its structure; it only requires that the configured codec can serialize
// and deserialize it. The default format is indented JSON.
//
// Failure policy: Restore and Save never return errors. A missing file is
// a cold start; a corrupt or unreadable file is logged and resolved by
// falling back to the configured initial data; a failed write is logged
// and swallowed so periodic checkpointing cannot crash the host process.
// Callers that need to observe failures do so through the injected Logger.
//
//	store, state, ok, err := checkpoint.NewWithRestore(checkpoint.Options[ImportState]{
//	    Path:     cfg.Checkpoint.Path,
//	    Snapshot: func() ImportState { return importer.State() },
//	    Logger:   log,
//	    Initial:  &ImportState{},
//	})
package checkpoint
