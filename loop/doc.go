// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package loop provides a single-threaded readiness event loop implementing
// api.EventLoop, with an epoll backend on Linux and a stub elsewhere.
package loop
