// Package watcher reports changes to the gradebook data file.
//
// The file is replaced atomically on every save (temp file + rename), so the
// watcher observes the parent directory rather than the file itself and
// filters events down to the file name. Editors and autosaves tend to write
// in bursts; events are debounced and the callback runs once per burst.
//
// Example usage:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//
//	err := watcher.Watch(ctx, "/home/me/.gradebook/grades.json", func() {
//		fmt.Println("gradebook changed")
//	})
package watcher
