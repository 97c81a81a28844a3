// Package models defines the wire and state types shared by the client
// services: session and user, condition logs and their pages, weather
// snapshots, list queries and the loading states emitted to subscribers.
package models
