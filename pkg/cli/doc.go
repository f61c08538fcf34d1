// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

// Package cli implements the command-line interface of the ttgen tuning table
// generator.
//
// # Overview
//
// ttgen turns a kernel tuning database (best-found kernel parameters per
// device) into C++ sources that a runtime compiles in as its parameter
// database. It is meant to run in a build pipeline after tuning results have
// been merged into one database.
//
// # Commands
//
// generate - Write the tuning tables:
//
//	ttgen generate --database database.json --output src/database/kernels
//	ttgen generate -d database.yaml.zst -o out --family 'xgemm*' --parallel 4
//	ttgen generate -d cm://tuning/database -o out --report cm://tuning/report
//	ttgen generate -d database.json -o out --watch
//
// For every kernel family one table per precision is written, plus a family
// source file including all of them and a family header declaring them. A
// precision without results for a family is generated from the family's
// default entries of precision 32, so every family exposes the same tables.
//
// precisions - List precision codes:
//
//	ttgen precisions
//	ttgen precisions --database database.json --format json
//
// # Input
//
// The database is JSON or YAML with a top-level "sections" list. Inputs ending
// in .zst, .gz or .lz4 are decompressed. Besides file paths, '-' reads stdin,
// http(s) URLs are fetched, and cm://namespace/name reads the "database.json"
// key (or the first key) of a ConfigMap.
//
// # Global Flags
//
//	--debug      Enable debug logging (also TTGEN_DEBUG)
//	--log-json   Emit logs as JSON
//
// TTGEN_LOG_LEVEL sets the log level when --debug is not given and
// TTGEN_PARALLELISM the default of --parallel.
//
// # Exit Codes
//
//	0  success
//	1  any failure: unreadable input, inconsistent database, unknown precision,
//	   parameter overflow, missing default entries, write errors
//	2  interrupted
//
// # Metrics
//
// --metrics-file writes the Prometheus registry in text format after each run,
// for collection by a node exporter textfile collector.
package cli
