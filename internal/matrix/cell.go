package matrix

// Step is one fully resolved check within a cell: a name and the concrete
// command to invoke.
type Step struct {
	Name    string
	Command string
}

// Cell is one (platform, toolchain) execution unit of the matrix. Cells
// share no mutable state with each other; the resolved step sequence is
// owned by the cell.
type Cell struct {
	Platform  string
	Toolchain string

	// Setup is the resolved provisioning command, empty when none is
	// configured.
	Setup string

	// Steps is the ordered check sequence for this cell.
	Steps []Step
}

// ID returns the human-readable identifier of the cell, used in logs and in
// the final report.
func (c *Cell) ID() string {
	return c.Platform + "/" + c.Toolchain
}
