// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command outcomed serves the forecast API, answering every request with a
// translated outcome.
//
//	outcomed serve --config outcomed.yaml
//	OUTCOMED_SERVER_ADDR=:9090 OUTCOMED_WEATHER_API__KEY=secret outcomed serve
//	outcomed routes
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand(os.Environ()).ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
