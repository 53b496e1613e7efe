// Package reference holds the fixed company directory offered to callers.
package reference

import (
	"errors"
	"fmt"
)

// ErrUnknownCompany is returned for a display name not in the directory
var ErrUnknownCompany = errors.New("unknown company")

// Company pairs a display name with its ticker symbol
type Company struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}

// Directory is an immutable name → ticker lookup
// ⭐ SSOT: built once at startup and injected; never mutated afterwards
type Directory struct {
	companies []Company
	byName    map[string]string
}

// NewDirectory builds a directory, preserving the given order
func NewDirectory(companies []Company) (*Directory, error) {
	d := &Directory{
		companies: make([]Company, 0, len(companies)),
		byName:    make(map[string]string, len(companies)),
	}

	for _, c := range companies {
		if c.Name == "" || c.Ticker == "" {
			return nil, fmt.Errorf("company %q: name and ticker are required", c.Name)
		}
		if _, dup := d.byName[c.Name]; dup {
			return nil, fmt.Errorf("company %q listed twice", c.Name)
		}
		d.byName[c.Name] = c.Ticker
		d.companies = append(d.companies, c)
	}

	return d, nil
}

// Ticker resolves a display name
func (d *Directory) Ticker(name string) (string, error) {
	ticker, ok := d.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCompany, name)
	}
	return ticker, nil
}

// Names returns display names in directory order
func (d *Directory) Names() []string {
	names := make([]string, len(d.companies))
	for i, c := range d.companies {
		names[i] = c.Name
	}
	return names
}

// Companies returns a copy of the entries in directory order
func (d *Directory) Companies() []Company {
	out := make([]Company, len(d.companies))
	copy(out, d.companies)
	return out
}

// Len returns the number of companies
func (d *Directory) Len() int {
	return len(d.companies)
}

// Default returns the energy-sector directory served by the gallery
func Default() *Directory {
	d, err := NewDirectory(energyCompanies)
	if err != nil {
		panic(err)
	}
	return d
}

// Some entries are delisted or private; they resolve to no data at fetch time.
var energyCompanies = []Company{
	{"Energy Transfer LP", "ET"},
	{"Enterprise Products Partners", "EPD"},
	{"Kinder Morgan", "KMI"},
	{"MPLX LP", "MPLX"},
	{"Google", "GOOGL"},
	{"Constellation Energy Corp", "CEG"},
	{"Equitrans Midstream", "ETRN"},
	{"Targa Resources", "TRGP"},
	{"Western Midstream Partners", "WES"},
	{"Williams Cos", "WMB"},
	{"Chevron Corporation", "CVX"},
	{"Loves", "privately held"},
	{"Total Energies", "TTE"},
	{"Exxon Mobil", "XOM"},
	{"BP", "BP"},
	{"Royal Dutch Shell", "SHEL"},
	{"ConocoPhillips", "COP"},
	{"Phillips 66", "PSX"},
	{"Marathon Petroleum", "MPC"},
	{"Cheniere Energy", "LNG"},
	{"Devon Energy", "DVN"},
	{"EOG Resources", "EOG"},
	{"Pioneer Natural Resources", "PXD"},
	{"Occidental Petroleum", "OXY"},
	{"Hess Corporation", "HES"},
	{"Antero Resources", "AR"},
	{"Cabot Oil & Gas", "COG"},
	{"Diamondback Energy", "FANG"},
	{"Apache Corporation", "APA"},
	{"Murphy Oil", "MUR"},
	{"Noble Energy", "NBL"},
	{"Range Resources", "RRC"},
	{"Continental Resources", "CLR"},
	{"Whiting Petroleum", "WLL"},
	{"Parsley Energy", "PE"},
	{"Cimarex Energy", "XEC"},
	{"Marathon Oil", "MRO"},
	{"National Oilwell Varco", "NOV"},
	{"Schlumberger", "SLB"},
	{"Halliburton", "HAL"},
	{"Baker Hughes", "BKR"},
	{"TechnipFMC", "FTI"},
	{"Valero Energy", "VLO"},
	{"HollyFrontier", "HFC"},
	{"Tesoro Corporation", "TSO"},
	{"Suncor Energy", "SU"},
	{"Canadian Natural Resources", "CNQ"},
	{"Imperial Oil", "IMO"},
	{"Enbridge", "ENB"},
	{"TC Energy", "TRP"},
	{"Pembina Pipeline", "PBA"},
	{"Keyera Corp", "KEYUF"},
}
