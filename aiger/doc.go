// Copyright 2018 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package aiger implements aiger format version 1.9 ascii and binary
// readers and writers.
//
// The aiger objects are backed by and-inverter graphs as represented in
// *aig.Manager.  Outputs, bad state properties, invariant constraints,
// justice properties and fairness constraints are all kept as primary
// outputs of the manager, so that they survive transformations of the
// graph.  T records which primary outputs play which role.
package aiger
