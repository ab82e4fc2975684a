// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sat

import "errors"

// ErrUnknownSolver is returned by New for an unrecognized solver name.
var ErrUnknownSolver = errors.New("sat: unknown solver")
