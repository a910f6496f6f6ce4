package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/funvibe/stc/internal/config"
	"github.com/funvibe/stc/internal/extmethods"
	"github.com/funvibe/stc/internal/modscan"
	"github.com/funvibe/stc/internal/signature"
	"github.com/funvibe/stc/internal/store"
	"github.com/funvibe/stc/internal/typesystem"
)

type app struct {
	opts  options
	cfg   *config.Config
	out   io.Writer
	log   *log.Logger
	color bool
	env   *modscan.Environment
}

func newApp(opts options, out, errOut io.Writer) (*app, error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	logger := newLogger(opts.verbose || cfg.Verbose, errOut)
	env, err := modscan.LoadEnvironment("stc", cfg.ModuleDirs()...)
	if err != nil {
		return nil, err
	}
	logger.Printf("[stc] environment %s with %d module dirs", env, len(cfg.Modules))
	return &app{
		opts:  opts,
		cfg:   cfg,
		out:   out,
		log:   logger,
		color: colorEnabled(out),
		env:   env,
	}, nil
}

// loadConfig reads path, or stc.yaml when path is empty and the file
// exists, or falls back to the defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat(config.SettingsFileName); err == nil {
		return config.Load(config.SettingsFileName)
	}
	return config.Default(), nil
}

func (a *app) run(args []string) error {
	switch args[0] {
	case "encode":
		if len(args) != 2 {
			return errors.New("usage: stc encode <type>")
		}
		return a.encode(args[1])
	case "decode":
		if len(args) != 2 {
			return errors.New("usage: stc decode <signature>")
		}
		return a.decode(args[1])
	case "methods":
		if len(args) > 2 {
			return errors.New("usage: stc methods [receiver]")
		}
		receiver := ""
		if len(args) == 2 {
			receiver = args[1]
		}
		return a.methods(context.Background(), receiver)
	case "store":
		return a.store(context.Background(), args[1:])
	default:
		return fmt.Errorf("unknown command %q (see stc help)", args[0])
	}
}

func (a *app) encode(text string) error {
	t, err := typesystem.ParseType(a.env.Resolver(), text)
	if err != nil {
		return err
	}
	sig, err := signature.Encode(t)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, sig)
	return nil
}

func (a *app) decode(sig string) error {
	var t typesystem.Type
	if a.opts.lenient {
		t = signature.DecodeOrObject(sig, a.rootResolver())
	} else {
		var err error
		t, err = signature.Decode(sig, a.env.Resolver())
		if err != nil {
			return err
		}
	}
	a.printType(t)
	return nil
}

func (a *app) printType(t typesystem.Type) {
	fmt.Fprintln(a.out, a.paint(t.String()))
	if a.opts.dump {
		// Nominal implements Stringer; without DisableMethods spew prints
		// only the name. Depth 10 reaches two levels of nested generics.
		dumper := spew.ConfigState{
			Indent:                  "  ",
			DisableMethods:          true,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
			MaxDepth:                10,
		}
		dumper.Fdump(a.out, t)
	}
}

func (a *app) methods(ctx context.Context, receiver string) error {
	cache := extmethods.NewDefaultMethodsCache(modscan.Default(), extmethods.WithLogger(a.log))
	table, err := cache.Lookup(ctx, a.env)
	if err != nil {
		return err
	}
	keys := table.Keys()
	if receiver != "" {
		keys = []string{receiver}
	}
	for _, key := range keys {
		ms := table.Methods(key)
		if len(ms) == 0 {
			continue
		}
		fmt.Fprintln(a.out, a.paint(key))
		for _, m := range ms {
			fmt.Fprintf(a.out, "  %s\n", m)
		}
	}
	return nil
}

func (a *app) store(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: stc store put|get|list|delete ...")
	}
	s, err := store.Open(ctx, a.cfg.StorePath(), store.WithLogger(a.log))
	if err != nil {
		return err
	}
	defer s.Close()

	switch args[0] {
	case "put":
		if len(args) != 4 {
			return errors.New("usage: stc store put <unit> <decl> <type>")
		}
		t, err := typesystem.ParseType(a.env.Resolver(), args[3])
		if err != nil {
			return err
		}
		sig, err := s.Put(ctx, args[1], args[2], t)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, sig)
	case "get":
		if len(args) != 3 {
			return errors.New("usage: stc store get <unit> <decl>")
		}
		if a.opts.lenient {
			sig, err := s.Signature(ctx, args[1], args[2])
			if err != nil {
				return err
			}
			a.printType(signature.DecodeOrObject(sig, a.rootResolver()))
			return nil
		}
		t, err := s.Get(ctx, args[1], args[2], a.env.Resolver())
		if err != nil {
			return err
		}
		a.printType(t)
	case "list":
		return a.list(ctx, s, args[1:])
	case "delete":
		if len(args) != 2 {
			return errors.New("usage: stc store delete <unit>")
		}
		n, err := s.DeleteUnit(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "deleted %d signatures\n", n)
	default:
		return fmt.Errorf("unknown store command %q", args[0])
	}
	return nil
}

func (a *app) list(ctx context.Context, s *store.Store, args []string) error {
	units := args
	if len(units) == 0 {
		var err error
		if units, err = s.Units(ctx); err != nil {
			return err
		}
	}
	for _, unit := range units {
		decls, err := s.Declarations(ctx, unit)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, a.paint(unit))
		for _, d := range decls {
			sig, err := s.Signature(ctx, unit, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "  %s\t%s\n", d, sig)
		}
	}
	return nil
}

// rootResolver resolves like the environment but reports the configured
// object type as the root, for lenient decoding.
func (a *app) rootResolver() typesystem.Resolver {
	root, ok := a.env.Resolver().Resolve(a.cfg.ObjectType)
	if !ok {
		root = typesystem.ObjectType
	}
	return rooted{Resolver: a.env.Resolver(), root: root}
}

type rooted struct {
	typesystem.Resolver
	root *typesystem.Nominal
}

func (r rooted) Object() *typesystem.Nominal { return r.root }
