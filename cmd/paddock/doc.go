// Command paddock ingests motorsport season data into a local SQLite
// database and reports on what is stored.
package main
