package checkin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const devcXML = `<?xml version="1.0" encoding="utf-8"?>
<abapGit version="v1.0.0" serializer="LCL_OBJECT_DEVC" serializer_version="v1.0.0">
 <asx:abap xmlns:asx="http://www.sap.com/abapxml" version="1.0">
  <asx:values>
   <DEVC>
    <CTEXT>Checked in package</CTEXT>
   </DEVC>
  </asx:values>
 </asx:abap>
</abapGit>`

const intfXML = `<?xml version="1.0" encoding="utf-8"?>
<abapGit version="v1.0.0" serializer="LCL_OBJECT_INTF" serializer_version="v1.0.0">
 <asx:abap xmlns:asx="http://www.sap.com/abapxml" version="1.0">
  <asx:values>
   <VSEOINTERF>
    <CLSNAME>ZIF_GREETER</CLSNAME>
    <DESCRIPT>Greeter contract</DESCRIPT>
   </VSEOINTERF>
  </asx:values>
 </asx:abap>
</abapGit>`

const clasXML = `<?xml version="1.0" encoding="utf-8"?>
<abapGit version="v1.0.0" serializer="LCL_OBJECT_CLAS" serializer_version="v1.0.0">
 <asx:abap xmlns:asx="http://www.sap.com/abapxml" version="1.0">
  <asx:values>
   <VSEOCLASS>
    <CLSNAME>ZCL_GREETER</CLSNAME>
    <DESCRIPT>Greeter implementation</DESCRIPT>
   </VSEOCLASS>
  </asx:values>
 </asx:abap>
</abapGit>`

func progXML(subc string) string {
	return `<?xml version="1.0" encoding="utf-8"?>
<abapGit version="v1.0.0" serializer="LCL_OBJECT_PROG" serializer_version="v1.0.0">
 <asx:abap xmlns:asx="http://www.sap.com/abapxml" version="1.0">
  <asx:values>
   <PROGDIR>
    <NAME>ZREPORT</NAME>
    <SUBC>` + subc + `</SUBC>
   </PROGDIR>
   <TPOOL>
    <item>
     <ID>R</ID>
     <ENTRY>Report title</ENTRY>
     <LENGTH>12</LENGTH>
    </item>
    <item>
     <ID>S</ID>
     <ENTRY>Selection text</ENTRY>
     <LENGTH>14</LENGTH>
    </item>
   </TPOOL>
  </asx:values>
 </asx:abap>
</abapGit>`
}

const fugrXML = `<?xml version="1.0" encoding="utf-8"?>
<abapGit version="v1.0.0" serializer="LCL_OBJECT_FUGR" serializer_version="v1.0.0">
 <asx:abap xmlns:asx="http://www.sap.com/abapxml" version="1.0">
  <asx:values>
   <AREAT>Utility functions</AREAT>
   <INCLUDES>
    <SOBJ_NAME>LZFG_UTILTOP</SOBJ_NAME>
   </INCLUDES>
   <FUNCTIONS>
    <item>
     <FUNCNAME>Z_UTIL_GREET</FUNCNAME>
     <SHORT_TEXT>Build a greeting</SHORT_TEXT>
    </item>
   </FUNCTIONS>
  </asx:values>
 </asx:abap>
</abapGit>`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}

// chdir switches into dir for the duration of the test; repository paths
// are expressed relative to the working directory.
func chdir(t *testing.T, dir string) {
	t.Helper()

	previous, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))

	t.Cleanup(func() {
		require.NoError(t, os.Chdir(previous))
	})
}
