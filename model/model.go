package model

import "github.com/cdfmlr/crud/orm"

// Dataset is an uploaded CSV kept in the upload dir.
//
// Only the facts about the file are stored here: the table itself is
// read again from StoredPath on every render pass.
type Dataset struct {
	orm.BasicModel

	Name       string // display name, defaults to the original file name
	FileName   string // as uploaded
	StoredPath string
	Size       int64
	Checksum   string `gorm:"index"` // xxh3, hex

	Rows    int
	Columns int
}
