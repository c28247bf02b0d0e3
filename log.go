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

import "github.com/sirupsen/logrus"

// log is the package-level logger. Callers embedding eclio in a larger
// program can redirect it with log.SetOutput/log.SetLevel; nothing in this
// package depends on its configuration for correctness.
var log = logrus.StandardLogger()
