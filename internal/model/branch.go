package model

// Branch is a clinic location. Users and transactions reference a branch;
// branches are never owned by other entities.
type Branch struct {
	Base
	Name     string `db:"name" json:"branchName"`
	Location string `db:"location" json:"branchLocation"`
}

// UpdateBranchRequest carries a partial branch update; nil fields are
// left untouched.
type UpdateBranchRequest struct {
	Name     *string `json:"branchName"`
	Location *string `json:"branchLocation"`
}
