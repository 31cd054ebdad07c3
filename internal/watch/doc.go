// Package watch re-resolves configuration documents when they change on
// disk.
//
// A [Watcher] observes the directories holding its files, so editors that
// save by renaming a temporary file are followed as well. Bursts of events
// are coalesced by a debounce interval before the resolve function runs.
package watch
