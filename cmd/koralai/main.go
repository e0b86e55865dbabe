package main

import (
	"runtime"

	"koralai-host/internal/cli"
)

// macOS 的窗口事件循环必须跑在主线程上。
func init() {
	runtime.LockOSThread()
}

func main() {
	cli.Execute()
}
