package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/target/chat-session-gateway/internal/bootstrap"
	domain "github.com/target/chat-session-gateway/internal/domain/persona"
)

func runPersona(cc *commandContext, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: chatctl persona get | select <id> [name] | clear")
	}

	rt, err := bootstrap.BuildClientRuntime(bootstrap.ClientDeps{
		Config:    cc.Config,
		Prompter:  stderrPrompter{w: cc.Stderr},
		Navigator: &printNavigator{w: cc.Stdout, base: cc.Config.BaseURL},
		Logger:    cc.Logger,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	switch args[0] {
	case "get":
		if !rt.Personas.Refresh(cc.Ctx) {
			return errors.New("could not load the current persona")
		}
		p, ok := rt.Personas.Get()
		if !ok {
			return writef(cc.Stdout, "no persona selected\n")
		}
		return printPersona(cc, p)
	case "select":
		if len(args) < 2 || strings.TrimSpace(args[1]) == "" {
			return errors.New("usage: chatctl persona select <id> [name]")
		}
		p := domain.Persona{ID: strings.TrimSpace(args[1])}
		if len(args) > 2 {
			p.Name = strings.Join(args[2:], " ")
		}
		rt.Personas.Select(p)
		if err := rt.Personas.Wait(); err != nil {
			return fmt.Errorf("save persona: %w", err)
		}
		return printPersona(cc, p)
	case "clear":
		rt.Personas.Clear()
		if err := rt.Personas.Wait(); err != nil {
			return fmt.Errorf("clear persona: %w", err)
		}
		return writef(cc.Stdout, "persona cleared\n")
	default:
		return fmt.Errorf("unknown persona subcommand %q", args[0])
	}
}

func printPersona(cc *commandContext, p domain.Persona) error {
	if p.Name == "" {
		return writef(cc.Stdout, "%s\n", p.ID)
	}
	return writef(cc.Stdout, "%s\t%s\n", p.ID, p.Name)
}
