package events

import (
	"fmt"

	"github.com/invopop/jsonschema"
)

// PayloadSchema returns the JSON schema describing the wire payload of one
// channel. Backend implementations and contract tests use it to pin the
// bus protocol.
func PayloadSchema(kind Kind) (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{DoNotReference: true}

	switch kind {
	case KindStreamStart:
		// The start payload is the bare conversation id, not an object.
		return &jsonschema.Schema{Type: "string", Description: "conversation id"}, nil
	case KindStreamToken:
		return reflector.Reflect(&TokenPayload{}), nil
	case KindStreamContext:
		return reflector.Reflect(&ContextPayload{}), nil
	case KindStreamEnd:
		return reflector.Reflect(&EndPayload{}), nil
	case KindStreamError:
		return reflector.Reflect(&ErrorPayload{}), nil
	case KindStartupProgress:
		return reflector.Reflect(&StartupPayload{}), nil
	}

	return nil, fmt.Errorf("unknown channel %q", kind)
}
