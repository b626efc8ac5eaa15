package handlers

import "github.com/vaultrecon/semrecon/model/reccore"

// Subrecord tags shared across more than one handler file. Kind-specific
// tags live in the handler file that uses them.
var (
	tagDATA = reccore.NewTag("DATA")
	tagSCRI = reccore.NewTag("SCRI")
	tagACBS = reccore.NewTag("ACBS")
	tagRNAM = reccore.NewTag("RNAM")
	tagXNAM = reccore.NewTag("XNAM")
	tagMODL = reccore.NewTag("MODL")
	tagCNTO = reccore.NewTag("CNTO")
)
