package output

// TSVHeader is the canonical header row for text/TSV outputs.
// Keep this as the single source of truth; all writers should use it.
const TSVHeader = "sample_id\tasv_id\ttotal_reads\tkingdom\tphylum\tclass\torder\tfamily\tgenus\tspecies\tconfidence\tmethod\tflagged"
