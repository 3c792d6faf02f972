package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// bindFlags registers one flag per json-tagged field of the struct args points
// to. Underscores in the json name become dashes, so min_bikes is --min-bikes.
func bindFlags(cmd *cobra.Command, args any) error {
	v := reflect.ValueOf(args).Elem()
	t := v.Type()
	fs := cmd.Flags()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		flag := flagName(name)
		if !bindField(fs, v.Field(i).Addr().Interface(), flag, field.Tag.Get("desc")) {
			return fmt.Errorf("cli: field %s.%s has unsupported type %s", t.Name(), field.Name, field.Type)
		}
		if isRequired(field.Tag.Get("validate")) {
			if err := cmd.MarkFlagRequired(flag); err != nil {
				return fmt.Errorf("cli: mark --%s required: %w", flag, err)
			}
		}
	}
	return nil
}

func bindField(fs *pflag.FlagSet, ptr any, name, usage string) bool {
	switch p := ptr.(type) {
	case *string:
		fs.StringVar(p, name, "", usage)
	case *int:
		fs.IntVar(p, name, 0, usage)
	case *float64:
		fs.Float64Var(p, name, 0, usage)
	case **float64:
		fs.Var(optionalFloat{p}, name, usage)
	case *bool:
		fs.BoolVar(p, name, false, usage)
	default:
		return false
	}
	return true
}

// optionalFloat leaves the target nil until the flag is set.
type optionalFloat struct {
	p **float64
}

func (f optionalFloat) String() string {
	if f.p == nil || *f.p == nil {
		return ""
	}
	return strconv.FormatFloat(**f.p, 'g', -1, 64)
}

func (f optionalFloat) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f.p = &v
	return nil
}

func (f optionalFloat) Type() string {
	return "float64"
}

func flagName(jsonName string) string {
	return strings.ReplaceAll(jsonName, "_", "-")
}

func isRequired(tag string) bool {
	for _, rule := range strings.Split(tag, ",") {
		if rule == "required" {
			return true
		}
	}
	return false
}
