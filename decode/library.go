package decode

import "github.com/drunlade/zwzniff/schema"

// NewStandardLibrary returns a Library with the "zniffer-envelope" and
// "zwave-mac" decoders registered, built from model.
func NewStandardLibrary(model *schema.Model) *Library {
	lib := NewLibrary()
	lib.Register("zniffer-envelope", ZnifferEnvelopeDecoder{})
	lib.Register("zwave-mac", ZWaveMacDecoder{Model: model})
	return lib
}
