/*
 * doc.go, part of topmodel
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

/*Package chem provides atom and molecule structures, facilities for reading and writing
PDB and PDBx/mmCIF files, and structural models built on them, which can be subset,
concatenated, masked, superimposed and compared.


	**Capabilities**


    Reads/writes PDB and PDBx/mmCIF files, transparently compressed with gzip or zstd.
	Multi-model files give one coordinate frame per model.

    PDBModel: a structural model with the file it was read from and an identifier.
	Models can be subset by index (Take) or by mask (Compress), and concatenated.

    TopModel: a PDBModel that carries a reference to its topology file (an Xplor PSF
	or any other force field topology). Every model derived from a TopModel keeps
	the reference and the version stamp of the model it comes from.

    Superimposes models, on selected atoms (Fit) or on the atoms both models
	share (MagicFit), and calculates RMSD and per-atom deviations.

The coordinate matrix, v3.Matrix, is based on gonum.org/v1/gonum/mat. Each row
represents one point in space.*/
package chem
