package qr

// indexHTML is the form served on GET /. It posts back to the same path as
// application/x-www-form-urlencoded with the text in the "input" field.
const indexHTML = `<!DOCTYPE html>
<html>
<head><title>qqr</title></head>
<body>
<form method="post" action="" style="display:flex;flex-direction:column;align-items:center;justify-content:center;width:100vw;height:100vh;row-gap:0.25em;">
<textarea name="input" style="width:50vw"></textarea>
<input type="submit" style="width:25vw"/>
</form>
</body>
</html>
`
