// Copyright (c) 2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package buildversion

import (
	"fmt"
	"net/http"
)

// Get is the endpoint serving the build version.
const Get = "/version"

// Unknown is reported by binaries built without a version.
const Unknown = "unknown"

// Handler returns a handler writing version, or Unknown when it is empty.
func Handler(version string) http.HandlerFunc {
	if version == "" {
		version = Unknown
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, version)
	}
}
