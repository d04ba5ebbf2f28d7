package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
)

// usageError invocación mal formada; el mensaje vacío indica que flag ya lo reportó.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

type runner struct {
	env      Env
	svc      *Services
	encoding string
}

// services abre el almacén en el primer uso.
func (r *runner) services(ctx context.Context) (*Services, error) {
	if r.svc == nil {
		svc, err := r.env.Open(ctx)
		if err != nil {
			return nil, fmt.Errorf("abrir almacén: %w", err)
		}
		r.svc = svc
	}
	return r.svc, nil
}

func (r *runner) out(format string, args ...any) {
	fmt.Fprintf(r.env.Stdout, format+"\n", args...)
}

func (r *runner) exit(err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}
	var ue *usageError
	if errors.As(err, &ue) {
		if ue.msg != "" {
			fmt.Fprintln(r.env.Stderr, ue.msg)
		}
		return ExitUsage
	}
	fmt.Fprintf(r.env.Stderr, "error: %v\n", err)
	return exitCode(err)
}

func (r *runner) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.env.Stderr)
	return fs
}

// parse analiza args y comprueba que los flags obligatorios estén presentes.
func parse(fs *flag.FlagSet, args []string, required ...string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return &usageError{}
	}
	seen := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { seen[f.Name] = true })
	for _, name := range required {
		if !seen[name] {
			return usagef("%s: falta --%s", fs.Name(), name)
		}
	}
	if fs.NArg() > 0 {
		return usagef("%s: argumento inesperado %q", fs.Name(), fs.Arg(0))
	}
	return nil
}

// parsePath analiza args con un único argumento posicional PATH, antes o después de los flags.
func parsePath(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return "", err
		}
		return "", &usageError{}
	}
	if fs.NArg() == 0 {
		return "", usagef("%s: falta PATH", fs.Name())
	}
	path := fs.Arg(0)
	if err := parse(fs, fs.Args()[1:]); err != nil {
		return "", err
	}
	return path, nil
}
