// Package storage persists computed worlds as run directories:
//
//	<base>/<name>_<unix>/metadata.json  run description and circuit solution
//	<base>/<name>_<unix>/fields.csv     one row per grid cell
package storage
