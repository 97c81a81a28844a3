// Package services contains the stateful client services that sit between
// the REST client and a UI.
//
//   - SessionManager owns the token pair and the authenticated user.
//   - DataSync owns the condition log list: startup health check, paging,
//     filtering, sorting and server-truth refresh after every mutation.
//   - WeatherSync owns the weather snapshot for the current location.
//
// Each service keeps its state in an observe.Value and emits a snapshot to
// subscribers after every committed change.
package services
