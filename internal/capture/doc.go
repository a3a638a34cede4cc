// Package capture turns rendered frames into a video.
//
// A [Pipeline] receives raw RGBA8 framebuffers from the render loop,
// checksums them and hands them to a single background [Worker] over an
// unbounded [Queue]. The worker rebuilds each buffer into an image and
// writes it to a per-frame file. Once the configured number of frames has
// been captured, [Pipeline.Finish] drains the queue, runs the [Encoder]
// over the written files and removes the intermediate directory.
//
// # States
//
//	Idle -> Recording -> Encoding -> Done
//
// # Ownership
//
// The pixel slice passed to [Pipeline.Capture] belongs to the pipeline
// once the call returns nil. Callers must hand over a fresh buffer per
// frame.
package capture
