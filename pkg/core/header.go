package core

// Header is what an output encoder needs to open one output record.
type Header struct {
	Title           string
	Scan            int
	PrecursorMZ     string // copied verbatim from the Parent comment value
	Charge          int
	MolecularWeight float64
}

// Header builds the output header for the record at the given scan number.
func (r *Record) Header(scan int) (Header, error) {
	parent, err := r.ParentMass()
	if err != nil {
		return Header{}, err
	}
	return Header{
		Title:           r.Peptide,
		Scan:            scan,
		PrecursorMZ:     parent,
		Charge:          r.Charge,
		MolecularWeight: r.MolecularWeight,
	}, nil
}
