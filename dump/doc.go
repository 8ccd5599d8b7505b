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

/*
Package dump saves and loads whole TopModels in a compact binary form.

A dump file is a z-standard (zstd) compressed stream containing a single
MessagePack record, with the atoms, every frame of coordinates, the
b-factors, the identifier and source of the model, the reference to its
topology file and its creation version. The record carries a format number,
and files with an unknown format are rejected. Dump files have, by convention,
the extension .tmd.
*/
package dump
