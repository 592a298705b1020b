//go:build softgl

package main

import "spin/hal"

var run = hal.RunWindow
