// Package ir provides the canonical record types shared by every copair package.
//
// This package contains type definitions and their canonical encodings only.
// All other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - NO float types anywhere - ids and day counts are int64
//   - Pair identity is canonicalized (EmployeeLow < EmployeeHigh)
//   - All JSON tags use snake_case
//   - Open date bounds are resolved against an explicit reference instant,
//     never against an implicit wall clock
package ir
