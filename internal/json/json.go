// SPDX-License-Identifier: Apache-2.0

package json

import (
	json "github.com/bytedance/sonic"
)

func Unmarshal(b []byte, v any) error {
	return json.Unmarshal(b, v)
}

func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// MarshalIndent sorts map keys, so that the output is stable across calls.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return json.ConfigStd.MarshalIndent(v, prefix, indent)
}
