/*
 * atomicdata.go, part of topmodel
 *
 * Copyright 2025 Raul Mera A. (rmeraaatacademicosdotutadotcl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package chem

import (
	"fmt"
	"strings"
)

//A map for assigning mass to elements.
//Note that just common "bio-elements" are present
var symbolMass = map[string]float64{
	"H":  1.0,
	"C":  12.01,
	"O":  16.00,
	"N":  14.01,
	"P":  30.97,
	"S":  32.06,
	"Se": 78.96,
	"K":  39.1,
	"Ca": 40.08,
	"Mg": 24.30,
	"Cl": 35.45,
	"Na": 22.99,
	"Cu": 63.55,
	"Zn": 65.38,
	"Co": 58.93,
	"Fe": 55.84,
	"Mn": 54.94,
	"Cr": 51.996,
	"Si": 28.08,
	"Be": 9.012,
	"F":  18.998,
	"Br": 79.904,
	"I":  126.90,
}

//A map between 3-letters name for aminoacidic residues to the corresponding 1-letter names.
var three2OneLetter = map[string]byte{
	"SER": 'S',
	"THR": 'T',
	"ASN": 'N',
	"GLN": 'Q',
	"SEC": 'U', //Selenocysteine!
	"CYS": 'C',
	"GLY": 'G',
	"PRO": 'P',
	"ALA": 'A',
	"VAL": 'V',
	"ILE": 'I',
	"LEU": 'L',
	"MET": 'M',
	"PHE": 'F',
	"TYR": 'Y',
	"TRP": 'W',
	"ARG": 'R',
	"HIS": 'H',
	"LYS": 'K',
	"ASP": 'D',
	"GLU": 'E',
}

//Residue names that force fields use for protonation states or
//disulfide-bonded variants of the standard aminoacids.
var proteinVariants = map[string]byte{
	"HID": 'H',
	"HIE": 'H',
	"HIP": 'H',
	"HSD": 'H',
	"HSE": 'H',
	"HSP": 'H',
	"CYX": 'C',
	"CYM": 'C',
	"ASH": 'D',
	"GLH": 'E',
	"LYN": 'K',
	"NME": 0,
	"ACE": 0,
}

// IsProteinResidue returns true if name is the 3-letter name of an aminoacid
// or of one of its common force-field variants.
func IsProteinResidue(name string) bool {
	name = strings.ToUpper(strings.TrimSpace(name))
	if _, ok := three2OneLetter[name]; ok {
		return true
	}
	_, ok := proteinVariants[name]
	return ok
}

// oneLetter returns the one-letter code for the residue, or 0.
func oneLetter(name string) byte {
	if c, ok := three2OneLetter[name]; ok {
		return c
	}
	return proteinVariants[name]
}

//This tries to guess a chemical element symbol from a PDB atom name. Mostly based on AMBER names.
//It only deals with some common bio-elements.
func symbolFromName(name string) (string, error) {
	symbol := ""
	if name == "" {
		return symbol, fmt.Errorf("Couldn't guess symbol from empty PDB name")
	}
	name = strings.ToUpper(name)
	switch {
	case len(name) == 4 || name[0] == 'H': //I thiiink only Hs can have 4-char names in amber.
		symbol = "H"
	case name == "CU":
		symbol = "Cu"
	case name == "CO":
		symbol = "Co"
	case name == "CL":
		symbol = "Cl"
	case name[0] == 'C': //Ca is not considered here
		symbol = "C"
	case name == "NA":
		symbol = "Na"
	case name[0] == 'N':
		symbol = "N"
	case name[0] == 'O':
		symbol = "O"
	case name[0] == 'P':
		symbol = "P"
	case name == "SE":
		symbol = "Se"
	case name[0] == 'S':
		symbol = "S"
	case strings.HasPrefix(name, "ZN"):
		symbol = "Zn"
	case strings.HasPrefix(name, "FE"):
		symbol = "Fe"
	case strings.HasPrefix(name, "MG"):
		symbol = "Mg"
	}
	if symbol == "" {
		return symbol, fmt.Errorf("Couldn't guess symbol from PDB name %s", name)
	}
	return symbol, nil
}
