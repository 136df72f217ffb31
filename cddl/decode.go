package cddl

import (
	"cddlang.org/go/internal/cborval"
	"cddlang.org/go/internal/core/adt"
	"cddlang.org/go/internal/jsonval"
)

func decodeJSON(src []byte) (adt.Value, error) { return jsonval.Decode(src) }
func decodeCBOR(src []byte) (adt.Value, error) { return cborval.Decode(src) }
