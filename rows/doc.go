// Package rows reads delimited text into core.Record values.
//
// The first line of the input is the header and names the columns. Every
// following line becomes one Record, produced lazily by Reader.Next:
//
//	r, err := rows.Open("user_behavior_dataset.csv")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	for {
//	    rec, err := r.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err // wraps core.ErrInput
//	    }
//	    ...
//	}
//
// A Reader cannot be rewound. Rows with fewer values than the header leave
// the missing columns absent; values past the last header column are ignored.
package rows
