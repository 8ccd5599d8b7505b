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

// Package chemjson implements serialization and deserialization of
// topmodel data types in a line-oriented JSON format: one JSON object
// per line. Its planned use is the communication of topmodel programs
// with other, independent programs which can be written in languages
// other than Go, for instance via UNIX pipes. A whole TopModel,
// including the reference to its topology file and its creation
// version, can be sent and recovered.
package chemjson
