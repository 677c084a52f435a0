/*
Copyright © 2026 the IonMAP authors.
This file is part of IonMAP.

IonMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

IonMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with IonMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package ionmap

import (
	"encoding/gob"
	"fmt"
	"io"
)

// Save returns a function that saves the subdomain's cell state to a gob
// stream (format description at https://golang.org/pkg/encoding/gob/).
func Save(w io.Writer) DomainManipulator {
	return func(d *Domain) error {
		e := gob.NewEncoder(w)
		if err := e.Encode(d.cells); err != nil {
			return fmt.Errorf("ionmap.Domain.Save: %v", err)
		}
		return nil
	}
}

// Load returns a function that loads cell state from a previously Saved
// stream into a Domain. The Domain's grid dimensions and network must
// match those of the saved state.
func Load(r io.Reader) DomainManipulator {
	return func(d *Domain) error {
		dec := gob.NewDecoder(r)
		var cells []*Cell
		if err := dec.Decode(&cells); err != nil {
			return fmt.Errorf("ionmap.Domain.Load: %v", err)
		}
		if len(cells) != d.Nx*d.Ny*d.Nz {
			return fmt.Errorf("ionmap.Domain.Load: saved state has %d cells but the domain has %d",
				len(cells), d.Nx*d.Ny*d.Nz)
		}
		d.cells = cells
		return nil
	}
}
