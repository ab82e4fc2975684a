// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package gen contains generators for and-inverter graphs and for common
// kinds of formulas.
//
// The graph generators build random combinational and sequential
// networks and arithmetic circuits such as adders and multipliers, which
// are used to exercise the synthesis and sweeping passes.  The formula
// generators add clauses to an inter.Adder.
package gen
