// Package addon exposes the Google Drive addon as a single object a host
// program can configure and call.
//
// A host loads the addon configuration, optionally supplies credentials and
// tools at runtime, registers an observer, and then invokes the list, delete
// and download actions. Every action answers with an *envelope.Response.
//
// # Example Usage
//
//	a := addon.New()
//	if err := a.LoadAddonConfig(blob); err != nil {
//		return err
//	}
//	a.SetObserverCallback(func(e addon.Event) { log.Println(e.Action, e.Code) }, "drive-1")
//	resp := a.ListDocuments(ctx, actions.ListInput{FolderID: "root"})
package addon
