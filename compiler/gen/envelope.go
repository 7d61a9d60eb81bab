package gen

import "github.com/blizzardhq/blizzgen/cfmt"

// envelopeBufCap is the fixed capacity of the static envelope buffers
// emitted alongside each framed descriptor. Overrunning it is a
// generated-runtime fault, not a generation-time one.
const envelopeBufCap = 1024

// payloadKind selects the serialized message an envelope carries. The
// framing logic is identical for both kinds; only the payload producer
// differs.
type payloadKind struct {
	sizeFn  string
	packFn  string
	typeURL string
}

var (
	descriptorPayload = payloadKind{
		sizeFn:  "blizzard__descriptor__descriptor__get_packed_size",
		packFn:  "blizzard__descriptor__descriptor__pack",
		typeURL: "type.googleapis.com/blizzard.descriptor.Descriptor",
	}
	valuePayload = payloadKind{
		sizeFn:  "blizzard__value__value__get_packed_size",
		packFn:  "blizzard__value__value__pack",
		typeURL: "type.googleapis.com/blizzard.value.Value",
	}
)

// frameEnvelope appends statements that serialize the compiled payload
// variable into a static fixed-capacity buffer and populate a protobuf
// Any envelope with the payload's type tag, pointer and length. A
// capacity overrun aborts the enclosing generated function.
func frameEnvelope(anyVar, payloadVar string, kind payloadKind, g *cfmt.Group) {
	bufVar := anyVar + "_buf"
	sizeVar := anyVar + "_size"
	g.Stmtf("static Google__Protobuf__Any %s = GOOGLE__PROTOBUF__ANY__INIT", anyVar)
	g.Stmtf("static uint8_t %s[%d]", bufVar, envelopeBufCap)
	g.Stmtf("size_t %s = %s(&%s)", sizeVar, kind.sizeFn, payloadVar)
	overrun := g.If("%s > sizeof(%s)", sizeVar, bufVar)
	overrun.Stmtf(`perror("Buffer too small")`)
	overrun.Stmtf("return NULL")
	g.Stmtf("%s(&%s, %s)", kind.packFn, payloadVar, bufVar)
	g.Stmtf("%s.type_url = %q", anyVar, kind.typeURL)
	g.Stmtf("%s.value.len = %s", anyVar, sizeVar)
	g.Stmtf("%s.value.data = %s", anyVar, bufVar)
}
