// Package wire turns tensors into self-describing wire values and back.
//
// A Value carries a data type tag, a shape encoding and an element payload.
// Its transport encoding is a protobuf message:
//
//	message Value {
//	  int32 dtype   = 1;
//	  bytes shape   = 2;
//	  bytes content = 3;
//	}
//
// written with every field present in field order, which makes the bytes a
// pure function of the tensor. Encoder and Decoder are the only producers and
// consumers of values; transports treat them as opaque.
package wire
