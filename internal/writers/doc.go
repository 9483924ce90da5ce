// Package writers turns analysis reports into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (text blocks, JSON/JSONL/TSV).
//   - Core packages stay domain-only; Pipeline stays orchestration-only.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers
