package cerr

import "fmt"

type F map[string]interface{}

// Context accumulates structured fields and an optional cause
// before being finalized into an error. Each method returns a
// copy so a context can be shared between error sites.
type Context struct {
	ContextFields F
	Cause         error
}

func Field(key string, value interface{}) Context {
	return Context{}.Field(key, value)
}

func Fields(fields F) Context {
	return Context{}.Fields(fields)
}

func Wrap(err error) Context {
	return Context{}.Wrap(err)
}

func Error(message string) error {
	return Context{}.Error(message)
}

func (c Context) Field(key string, value interface{}) Context {
	return c.Fields(F{key: value})
}

func (c Context) Fields(fields F) Context {
	newFields := F{}
	for key, value := range c.ContextFields {
		newFields[key] = value
	}
	for key, value := range fields {
		newFields[key] = value
	}

	return Context{
		ContextFields: newFields,
		Cause:         c.Cause,
	}
}

func (c Context) Wrap(err error) Context {
	return Context{
		ContextFields: c.ContextFields,
		Cause:         err,
	}
}

func (c Context) Error(message string) error {
	return ContextualError{
		Context: c,
		Message: message,
	}
}

var _ error = ContextualError{}
var _ interface{ Unwrap() error } = ContextualError{}

type ContextualError struct {
	Context Context
	Message string
}

func (c ContextualError) Error() string {
	if c.Context.Cause == nil {
		return c.Message
	}

	return fmt.Sprintf("%s: %s", c.Message, c.Context.Cause.Error())
}

func (c ContextualError) Unwrap() error {
	return c.Context.Cause
}
