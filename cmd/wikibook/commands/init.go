package commands

import (
	"fmt"

	"wikibook/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	fmt.Printf("Configuration written to %s\n", root.Config)
	fmt.Println("Edit it to point at your wiki, then run: wikibook build")
	return nil
}
