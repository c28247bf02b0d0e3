/*
Copyright © 2024 the eclio authors.
This file is part of eclio.

eclio is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

eclio is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with eclio.  If not, see <http://www.gnu.org/licenses/>.
*/

package eclio

// getByName returns the cached payload of the last record named `name`,
// loading it first if needed. getByIndex is unambiguous and never needs a
// "last occurrence" rule.
func (ef *EclFile) getByName(name string, want EclType) (interface{}, error) {
	idx, ok := ef.indexOfLast(name)
	if !ok {
		return nil, &NotFoundError{File: ef.Path, Name: name}
	}
	return ef.getByIndex(idx, want)
}

func (ef *EclFile) getByIndex(idx int, want EclType) (interface{}, error) {
	if idx < 0 || idx >= len(ef.records) {
		return nil, errOutOfRange()
	}
	rec := ef.records[idx]
	if want != "" && rec.Type != want {
		return nil, &WrongTypeError{File: ef.Path, Name: rec.Name, Want: string(want), Have: string(rec.Type)}
	}
	if v, ok := ef.loaded[idx]; ok {
		return v, nil
	}
	if err := ef.LoadData([]int{idx}); err != nil {
		return nil, err
	}
	return ef.loaded[idx], nil
}

// GetInt returns the []int32 payload of the last INTE record named name.
func (ef *EclFile) GetInt(name string) ([]int32, error) {
	v, err := ef.getByName(name, TypeINTE)
	if err != nil {
		return nil, err
	}
	return v.([]int32), nil
}

// GetReal returns the []float32 payload of the last REAL record named name.
func (ef *EclFile) GetReal(name string) ([]float32, error) {
	v, err := ef.getByName(name, TypeREAL)
	if err != nil {
		return nil, err
	}
	return v.([]float32), nil
}

// GetDoub returns the []float64 payload of the last DOUB record named name.
func (ef *EclFile) GetDoub(name string) ([]float64, error) {
	v, err := ef.getByName(name, TypeDOUB)
	if err != nil {
		return nil, err
	}
	return v.([]float64), nil
}

// GetLogi returns the []bool payload of the last LOGI record named name.
func (ef *EclFile) GetLogi(name string) ([]bool, error) {
	v, err := ef.getByName(name, TypeLOGI)
	if err != nil {
		return nil, err
	}
	return v.([]bool), nil
}

// GetChar returns the []string payload of the last CHAR (or C0nn) record
// named name.
func (ef *EclFile) GetChar(name string) ([]string, error) {
	v, err := ef.getByName(name, "")
	if err != nil {
		return nil, err
	}
	s, ok := v.([]string)
	if !ok {
		rec := ef.records[ef.byName[name][len(ef.byName[name])-1]]
		return nil, &WrongTypeError{File: ef.Path, Name: name, Want: "CHAR", Have: string(rec.Type)}
	}
	return s, nil
}

// GetIntAt, GetRealAt, etc. resolve by unambiguous directory index instead
// of name.
func (ef *EclFile) GetIntAt(idx int) ([]int32, error) {
	v, err := ef.getByIndex(idx, TypeINTE)
	if err != nil {
		return nil, err
	}
	return v.([]int32), nil
}

func (ef *EclFile) GetRealAt(idx int) ([]float32, error) {
	v, err := ef.getByIndex(idx, TypeREAL)
	if err != nil {
		return nil, err
	}
	return v.([]float32), nil
}

// GetCharAt returns the []string payload at the given directory index,
// regardless of whether the underlying record is CHAR or a fixed-width
// C0nn string type.
func (ef *EclFile) GetCharAt(idx int) ([]string, error) {
	v, err := ef.getByIndex(idx, "")
	if err != nil {
		return nil, err
	}
	s, ok := v.([]string)
	if !ok {
		rec := ef.records[idx]
		return nil, &WrongTypeError{File: ef.Path, Name: rec.Name, Want: "CHAR", Have: string(rec.Type)}
	}
	return s, nil
}
