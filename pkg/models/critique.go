package models

// Critique is the structured model verdict for one code block.
// Empty strings mean "nothing to report" for Error, Warning and Solution.
type Critique struct {
	Function string `json:"function" toon:"function"`
	Error    string `json:"error" toon:"error"`
	Warning  string `json:"warning" toon:"warning"`
	Solution string `json:"solution" toon:"solution"`
}

// HasConcerns reports whether the critique flags an error or a warning.
func (c Critique) HasConcerns() bool {
	return c.Error != "" || c.Warning != ""
}
