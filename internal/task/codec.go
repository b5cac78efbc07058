package task

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var schemaJSON []byte

const schemaURL = "tasks.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Schema returns the compiled JSON Schema for task files.
func Schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add task schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile task schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// Check validates raw task file contents and returns every problem found.
// The returned errors all match ErrMalformed.
func Check(data []byte) []error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return []error{&MalformedError{Err: fmt.Errorf("parse json: %w", err)}}
	}
	if dec.More() {
		return []error{&MalformedError{Err: fmt.Errorf("parse json: trailing data after array")}}
	}

	s, err := Schema()
	if err != nil {
		return []error{err}
	}
	if err := s.Validate(doc); err != nil {
		var errs []error
		appendSchemaErrors(&errs, err)
		return errs
	}
	return nil
}

// Decode parses task file contents into tasks in file order.
func Decode(data []byte) ([]*Task, error) {
	if errs := Check(data); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &MalformedError{Err: err}
	}

	tasks := make([]*Task, 0, len(records))
	for i, rec := range records {
		t, err := FromSerializable(rec)
		if err != nil {
			return nil, atIndex(err, i)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Encode serializes tasks in order with 2-space indentation and a trailing
// newline. An empty list encodes as [].
func Encode(tasks []*Task) ([]byte, error) {
	records := make([]Record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, t.ToSerializable())
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return append(data, '\n'), nil
}

func appendSchemaErrors(errs *[]error, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		*errs = append(*errs, &MalformedError{Err: err})
		return
	}
	collectSchemaErrors(errs, ve)
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*errs = append(*errs, &MalformedError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// jsonPointerToPath turns "/2/description" into "[2].description".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
