// SPDX-License-Identifier: Apache-2.0

package index

import (
	"errors"
	"fmt"
)

type ErrIndexAlreadyExists struct {
	Name string
}

func (e ErrIndexAlreadyExists) Error() string {
	return fmt.Sprintf("index [%s] already exists", e.Name)
}

type ErrIndexNotFound struct {
	Name string
}

func (e ErrIndexNotFound) Error() string {
	return fmt.Sprintf("index [%s] not found", e.Name)
}

var (
	ErrRetriable        = errors.New("retriable error")
	ErrInvalidMapping   = errors.New("invalid index mapping")
	ErrInvalidIndexName = errors.New("invalid index name")
)
