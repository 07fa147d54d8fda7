// Package writers turns assembled rows into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (TSV, JSON, JSONL).
//   - The annotator stays orchestration-only; assemble stays domain-only.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers
