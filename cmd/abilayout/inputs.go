package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/spf13/cobra"

	abilayout "github.com/branched-services/go-abilayout"
)

var errNoInput = errors.New("no input: pass --type or --abi with --method")

// input is one top-level type to analyze, owning its tree.
type input struct {
	Name string
	Tree *abilayout.Tree
	ID   abilayout.NodeID
}

func resolveInputs(cmd *cobra.Command) ([]input, error) {
	var inputs []input

	types, _ := cmd.Flags().GetStringArray("type")
	for _, s := range types {
		t, id, err := abilayout.ParseType(s)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input{Name: s, Tree: t, ID: id})
	}

	abiPath, _ := cmd.Flags().GetString("abi")
	methods, _ := cmd.Flags().GetStringSlice("method")
	if abiPath != "" {
		parsed, err := loadABI(abiPath)
		if err != nil {
			return nil, err
		}
		if len(methods) == 0 {
			for name := range parsed.Methods {
				methods = append(methods, name)
			}
			sort.Strings(methods)
		}
		for _, name := range methods {
			method, ok := parsed.Methods[name]
			if !ok {
				return nil, fmt.Errorf("method %q not found in %s", name, abiPath)
			}
			t, id, err := abilayout.FromMethodInputs(method)
			if err != nil {
				return nil, fmt.Errorf("method %s: %w", name, err)
			}
			inputs = append(inputs, input{Name: method.Sig, Tree: t, ID: id})
		}
	} else if len(methods) > 0 {
		return nil, errors.New("--method requires --abi")
	}

	if len(inputs) == 0 {
		return nil, errNoInput
	}
	return inputs, nil
}

func loadABI(path string) (abi.ABI, error) {
	f, err := os.Open(path)
	if err != nil {
		return abi.ABI{}, err
	}
	defer f.Close()
	parsed, err := abi.JSON(f)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse ABI %s: %w", path, err)
	}
	return parsed, nil
}
