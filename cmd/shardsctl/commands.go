package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"text/tabwriter"

	shards "github.com/reglet-dev/shards-sdk/go"
	"github.com/reglet-dev/shards-sdk/go/domain/entities"
)

func (a *app) listCommand(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	env, err := newEnvironment(defaultHostConfig(), nil)
	if err != nil {
		return a.fail(err)
	}

	names := env.registry.Names()
	if fs.NArg() > 0 {
		names, err = env.registry.Match(fs.Arg(0))
		if err != nil {
			return a.fail(err)
		}
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tHASH")
	for _, name := range names {
		d, _ := env.registry.Lookup(name)
		fmt.Fprintf(tw, "%s\t%s\t%08x\n", d.Name, d.Version, d.Hash)
	}
	if err := tw.Flush(); err != nil {
		return a.fail(err)
	}
	return 0
}

func (a *app) describeCommand(args []string) int {
	fs := flag.NewFlagSet("describe", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	asSchema := fs.Bool("schema", false, "print the parameter JSON schema")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.stderr, "usage: shardsctl describe [-schema] Shard.Name")
		return 2
	}

	env, err := newEnvironment(defaultHostConfig(), nil)
	if err != nil {
		return a.fail(err)
	}
	name := fs.Arg(0)
	d, ok := env.registry.Lookup(name)
	if !ok {
		return a.fail(fmt.Errorf("unknown shard %q", name))
	}

	if *asSchema {
		schema, _ := env.registry.Schema(name)
		data, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return a.fail(err)
		}
		fmt.Fprintln(a.stdout, string(data))
		return 0
	}

	fmt.Fprintf(a.stdout, "%s %s\n", d.Name, d.Version)
	if d.Help != "" {
		fmt.Fprintf(a.stdout, "  %s\n", d.Help)
	}
	fmt.Fprintf(a.stdout, "input:  %s\n", typeList(d.InputTypes))
	fmt.Fprintf(a.stdout, "output: %s\n", typeList(d.OutputTypes))
	if len(d.Parameters) == 0 {
		return 0
	}
	fmt.Fprintln(a.stdout, "parameters:")
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	for i, p := range d.Parameters {
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", i, p.Name, typeList(p.Types), p.Help)
	}
	if err := tw.Flush(); err != nil {
		return a.fail(err)
	}
	return 0
}

func (a *app) checkCommand(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	configPath := fs.String("config", "", "host configuration file (TOML)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.stderr, "usage: shardsctl check [flags] wire.yaml")
		return 2
	}

	cfg, err := loadHostConfig(*configPath)
	if err != nil {
		return a.fail(err)
	}
	env, err := newEnvironment(cfg, nil)
	if err != nil {
		return a.fail(err)
	}
	wire, _, err := env.loader.LoadFile(fs.Arg(0), cfg.Vars)
	if err != nil {
		return a.fail(err)
	}
	names, values, err := env.globals()
	if err != nil {
		return a.fail(err)
	}
	var opts []shards.RunnerOption
	for i, name := range names {
		opts = append(opts, shards.WithGlobal(name, values[i]))
	}

	result, err := shards.NewRunner(wire, opts...).Compose()
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.stdout, "wire %s: ok\n", wire.Name())
	fmt.Fprintf(a.stdout, "output: %s\n", result.OutputType)
	for _, e := range result.Exposed {
		if e.Protected {
			continue
		}
		fmt.Fprintf(a.stdout, "exposes: %s %s\n", e.Name, e.Type)
	}
	for _, e := range result.Required {
		fmt.Fprintf(a.stdout, "requires: %s %s\n", e.Name, e.Type)
	}
	return 0
}

func typeList(types entities.Types) string {
	if len(types) == 0 {
		return "-"
	}
	return types.String()
}
