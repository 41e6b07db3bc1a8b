// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command arrayviz records array algorithms frame by frame and replays the
// recordings for renderers.
//
// Usage:
//
//	arrayviz algorithms
//	arrayviz run merge --format text
//	arrayviz run bubble --input values.yaml --no-save
//	arrayviz list
//	arrayviz show <id> --format json
//	arrayviz diff <id> 3
//	arrayviz delete <id>
//	arrayviz serve --port 8089
//
// Example requests against serve:
//
//	curl http://localhost:8089/v1/arrayviz/algorithms
//	curl -X POST http://localhost:8089/v1/arrayviz/recordings \
//	  -H "Content-Type: application/json" \
//	  -d '{"algorithm": "pairsum", "input": {"values": [1, 3, 5, 9], "target": 8}}'
package main

import (
	"os"
)

func main() {
	cmd, a := newRootCmd()
	err := cmd.Execute()
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Exit(1)
	}
}
