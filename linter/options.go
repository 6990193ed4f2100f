package linter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"sync"

	jsValidator "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/speakeasy-api/swiftlint/errors"
	"github.com/speakeasy-api/swiftlint/hashing"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

var defaultPrinter = message.NewPrinter(language.English)

// compiled schemas keyed by rule identifier and schema hash
var schemaCache sync.Map

// DecodeOptions decodes a rule's option map into target, a pointer to a
// struct with yaml tags. Keys absent from options keep target's values.
func DecodeOptions(options map[string]any, target any) error {
	if len(options) == 0 {
		return nil
	}
	data, err := yaml.Marshal(options)
	if err != nil {
		return ErrInvalidOptions.Wrap(err)
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return ErrInvalidOptions.Wrap(err)
	}
	return nil
}

// MergeOptions returns defaults overlaid with overrides.
func MergeOptions(defaults, overrides map[string]any) map[string]any {
	if len(defaults) == 0 && len(overrides) == 0 {
		return nil
	}
	out := make(map[string]any, len(defaults)+len(overrides))
	maps.Copy(out, defaults)
	maps.Copy(out, overrides)
	return out
}

// ValidateOptions checks options against a rule's JSON schema. Every
// failing leaf is reported in the returned error.
func ValidateOptions(ruleID string, schema, options map[string]any) error {
	if len(schema) == 0 {
		return nil
	}
	compiled, err := compileSchema(ruleID, schema)
	if err != nil {
		return err
	}

	if options == nil {
		options = map[string]any{}
	}
	raw, err := json.Marshal(options)
	if err != nil {
		return ErrInvalidOptions.Wrapf("%s: options are not valid json: %s", ruleID, err.Error())
	}
	instance, err := jsValidator.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return ErrInvalidOptions.Wrapf("%s: options are not valid json: %s", ruleID, err.Error())
	}

	err = compiled.Validate(instance)
	if err == nil {
		return nil
	}
	var validationErr *jsValidator.ValidationError
	if !errors.As(err, &validationErr) {
		return ErrInvalidOptions.Wrapf("%s: %s", ruleID, err.Error())
	}
	return ErrInvalidOptions.Wrapf("%s: %s", ruleID, strings.Join(rootCauses(validationErr), "; "))
}

func rootCauses(err *jsValidator.ValidationError) []string {
	if len(err.Causes) == 0 {
		field := strings.Join(err.InstanceLocation, ".")
		if field == "" {
			field = "options"
		}
		return []string{fmt.Sprintf("%s %s", field, err.ErrorKind.LocalizedString(defaultPrinter))}
	}
	var out []string
	for _, cause := range err.Causes {
		out = append(out, rootCauses(cause)...)
	}
	return out
}

func compileSchema(ruleID string, schema map[string]any) (*jsValidator.Schema, error) {
	key := ruleID + "/" + hashing.Hash(schema)
	if cached, ok := schemaCache.Load(key); ok {
		return cached.(*jsValidator.Schema), nil
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("rule %s has an invalid option schema: %w", ruleID, err)
	}
	doc, err := jsValidator.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("rule %s has an invalid option schema: %w", ruleID, err)
	}
	url := ruleID + ".schema.json"
	c := jsValidator.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("rule %s has an invalid option schema: %w", ruleID, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("rule %s has an invalid option schema: %w", ruleID, err)
	}
	schemaCache.Store(key, compiled)
	return compiled, nil
}
