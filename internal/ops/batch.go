package ops

// RenamePair is one old→new entry in a batch rename.
type RenamePair struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// BatchRename applies renames sequentially and stops at the first failure,
// returning the results accumulated so far with the error. There is no
// rollback of completed renames.
func (o *Operations) BatchRename(renames []RenamePair, dryRun bool) ([]*RenameResult, error) {
	var results []*RenameResult
	for _, r := range renames {
		result, err := o.Rename(r.OldName, r.NewName, dryRun)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// BatchDelete deletes notes sequentially with the same partial-failure
// semantics as BatchRename.
func (o *Operations) BatchDelete(names []string, dryRun bool) ([]*DeleteResult, error) {
	var results []*DeleteResult
	for _, name := range names {
		result, err := o.Delete(name, dryRun)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}
