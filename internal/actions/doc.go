// Package actions implements the Google Drive addon actions: listing a
// folder, moving a file to trash, and downloading or exporting a file.
//
// Every action returns an *envelope.Response and never an error. Input,
// configuration and authentication problems are answered before any network
// call; Drive failures are mapped to the upstream status, and failures to get
// any response at all are reported as 503.
package actions
