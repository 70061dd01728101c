package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// CLIOutput is the single object printed in --json mode.
type CLIOutput struct {
	Success  bool     `json:"success"`
	Content  string   `json:"content,omitempty"`
	Path     string   `json:"path,omitempty"`
	MimeType string   `json:"mime_type,omitempty"`
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

type Printer struct {
	Out      io.Writer
	JSON     bool
	Warnings []string
}

func (p *Printer) Text(content string) error {
	if p.JSON {
		return p.emit(CLIOutput{Success: true, Content: content, Warnings: p.Warnings})
	}
	_, err := fmt.Fprintln(p.Out, content)
	return err
}

func (p *Printer) Image(path, mimeType string) error {
	if p.JSON {
		return p.emit(CLIOutput{Success: true, Path: path, MimeType: mimeType, Warnings: p.Warnings})
	}
	_, err := fmt.Fprintf(p.Out, "Image saved to: %s\nMime type: %s\n", path, mimeType)
	return err
}

// Failure reports err. In JSON mode it also prints a failure object so stdout
// stays parseable. err is always returned so the exit status is non-zero.
func (p *Printer) Failure(err error) error {
	if !p.JSON {
		return err
	}
	if emitErr := p.emit(CLIOutput{Success: false, Error: err.Error(), Warnings: p.Warnings}); emitErr != nil {
		return emitErr
	}
	return err
}

func (p *Printer) emit(v CLIOutput) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.Out, string(data))
	return err
}
