// Package gui provides shards driving an immediate-mode UI backend.
//
// A GUI shard owns the frame: it begins a frame on its ports.UIBackend,
// publishes the root surface to its contents through the protected
// GUI.Context variable and ends the frame. GUI.Panels splits the root
// surface into regions and hands each region surface to its slot through the
// protected GUI.UI.Parent variable, which every widget requires.
//
// Widgets key their retained backend state with identity keys derived from
// their instance id, so state survives across ticks without depending on
// memory addresses.
package gui
