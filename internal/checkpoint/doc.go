// Package checkpoint saves and restores named parameter tensors in the
// SafeTensors format, so trained loss weights, class centers and backbones
// can be reloaded or inspected with the HuggingFace tooling.
//
//	Format Structure:
//	  [8 bytes: header size N (uint64 LE)]
//	  [N bytes: JSON header, tensor entries plus "__metadata__"]
//	  [tensor data: raw little-endian bytes, in alphabetical tensor order]
//
// Tensors are stored as F64 by default. F32 and F16 exports trade precision
// for size; reading always widens back to float64.
//
// The metadata carries the run id, the loss type and training progress.
// Writers also store a SHA-256 of the data section, which readers verify
// when present.
//
// Example usage:
//
//	meta := checkpoint.NewMeta("lmcl")
//	meta.Step = 1000
//	if err := checkpoint.Save("run.safetensors", state, meta, checkpoint.F64); err != nil {
//	    klog.Fatalf("%+v", err)
//	}
//
//	state, meta, err := checkpoint.Load("run.safetensors")
package checkpoint
