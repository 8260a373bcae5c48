/*
 * Copyright 2025 Author(s) of webhits
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package identity resolves the local host's name and a network address for
// it. There is no retry here: a lookup failure propagates to the caller
// unmodified.
package identity

import (
	"context"
	"net"
	"os"
)

// Identity is the resolved local host identity.
type Identity struct {
	Hostname string
	Address  string
}

// Resolve reads the process's host name from the operating environment and
// resolves it to a network address with the default resolver. The first
// address returned by the resolver wins.
func Resolve(ctx context.Context) (Identity, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return Identity{}, err
	}

	addrs, err := net.DefaultResolver.LookupHost(ctx, hostname)
	if err != nil {
		return Identity{}, err
	}

	return Identity{Hostname: hostname, Address: addrs[0]}, nil
}
