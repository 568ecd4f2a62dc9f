package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mrdg/modsynth/dub"
)

type env struct {
	patch *patch
	out   io.Writer
	quit  bool
}

func (e *env) setProp(device, prop string, v interface{}) error {
	d, err := e.patch.device(device)
	if err != nil {
		return err
	}
	return d.Set(prop, v)
}

func (e *env) getProp(device, prop string) (interface{}, error) {
	d, err := e.patch.device(device)
	if err != nil {
		return nil, err
	}
	return d.Get(prop)
}

func (e *env) eval(input string) (interface{}, error) {
	command, err := dub.Parse(input)
	if err != nil {
		return nil, err
	}
	name := string(command.Name)
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if cmd.arity < 0 {
			arity := -cmd.arity
			if len(command.Args) < arity {
				return nil, fmt.Errorf("%s: wrong number of arguments: need at least %v, got %v",
					cmd.name, arity, len(command.Args))
			}
		} else if len(command.Args) != cmd.arity {
			return nil, fmt.Errorf("%s: wrong number of arguments: want %v, got %v",
				cmd.name, cmd.arity, len(command.Args))
		}
		result, err := cmd.run(e, command.Args)
		if err != nil {
			return result, fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return result, nil
	}
	return nil, fmt.Errorf("unknown command: %s", name)
}

// run evaluates script lines, stopping at the first error.
func (e *env) run(lines []string) error {
	for n, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		result, err := e.eval(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", n+1, err)
		}
		e.print(result)
	}
	return nil
}

func (e *env) print(result interface{}) {
	if result != nil {
		fmt.Fprintln(e.out, result)
	}
}

func repl(env *env) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for !env.quit {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			fmt.Fprintln(env.out, err)
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		if result, err := env.eval(line); err != nil {
			fmt.Fprintln(env.out, err)
		} else {
			env.print(result)
		}
	}
	return nil
}

type command struct {
	name  string
	run   func(*env, []dub.Node) (interface{}, error)
	arity int // -n means len(args) must be >= n
	help  string
}

func readArgs(args []dub.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return errors.New("not enough arguments")
	}
	for n, arg := range args {
		dest := slots[n]
		switch p := dest.(type) {
		case *string:
			switch s := arg.(type) {
			case dub.String:
				*p = string(s)
			case dub.Identifier:
				*p = string(s)
			default:
				return fmt.Errorf("argument error: expected a string or identifier")
			}
		case *float64:
			switch f := arg.(type) {
			case dub.Float:
				*p = float64(f)
			case dub.Int:
				*p = float64(f)
			default:
				return fmt.Errorf("argument error: expected a number")
			}
		case *int:
			n, ok := arg.(dub.Int)
			if !ok {
				return fmt.Errorf("argument error: expected an integer")
			}
			*p = int(n)
		case *dub.MatchExpr:
			m, ok := arg.(dub.MatchExpr)
			if !ok {
				return fmt.Errorf("argument error: expected a match expression")
			}
			*p = m
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}

// value converts a property argument to the type Props setters accept.
func value(arg dub.Node) (interface{}, error) {
	switch v := arg.(type) {
	case dub.Int:
		return int(v), nil
	case dub.Float:
		return float64(v), nil
	case dub.String:
		return string(v), nil
	case dub.Identifier:
		return string(v), nil
	default:
		return nil, fmt.Errorf("unsupported property type: %v", v)
	}
}
