// Package undo provides the runner logic for restoring pre-edit snapshots.
package undo

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/metas/pkg/app"
)

// Undo pops the most recent pre-edit snapshot and writes it back.
type Undo struct {
	Service *app.Service
}

func (u *Undo) Do(ctx context.Context) error {
	if u.Service == nil {
		return errors.New("can not undo, no service")
	}

	id, ok, err := u.Service.Undo(ctx)
	if err != nil {
		return err
	}
	if !ok {
		_, _ = color.New(color.Faint, color.Italic).Println("nothing to undo")
		return nil
	}
	fmt.Printf("restored %s\n", id)
	return nil
}
