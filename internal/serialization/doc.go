// Package serialization persists the leaf values of a model as a flat
// checkpoint.
//
// A model's learnable state is the ordered list of its parameter leaves, so a
// checkpoint stores exactly that list plus a small JSON header:
//
//	Format Structure:
//	  [0x00-0x03: Magic "BGRD"]
//	  [0x04-0x07: Version (uint32 LE)]
//	  [0x08-0x0B: Flags (uint32 LE)]
//	  [0x0C-0x0F: Reserved]
//	  [0x10-0x17: Header Size (uint64 LE)]
//	  [0x18-0x1F: Data Size (uint64 LE)]
//	  [0x20-0x3F: SHA-256 of header JSON and data]
//	  [Header: JSON metadata]
//	  [Padding to a 64-byte boundary]
//	  [Data: float64 values, little-endian, in parameter order]
//
// Example usage:
//
//	params := model.Parameters()
//	if err := serialization.SaveFile("mlp.bgrd", params, serialization.Header{ModelType: "MLP"}); err != nil {
//	    log.Fatal(err)
//	}
//
//	ckpt, err := serialization.LoadFile("mlp.bgrd")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := ckpt.Apply(model.Parameters()); err != nil {
//	    log.Fatal(err)
//	}
package serialization
